package controller

import (
	"classroom_backend/internal/service"
	"classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

// CreateLesson godoc
// @Summary 创建课时
// @Description 测验课时的 contentJson 会先校验再保存
// @Tags 教师
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param request body service.LessonRequest true "课时内容"
// @Success 201 {object} util.Response{data=model.Lesson} "成功"
// @Failure 400 {object} util.Response "测验文档无效"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/teacher/courses/{courseId}/lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	courseID, ok := util.ParamUint(ctx, "courseId")
	if !ok {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.CreateLesson(ctx.Request.Context(), courseID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// UpdateLesson godoc
// @Summary 修改课时
// @Tags 教师
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param lessonId path int true "课时ID"
// @Param request body service.LessonRequest true "课时内容"
// @Success 200 {object} util.Response{data=model.Lesson} "成功"
// @Failure 400 {object} util.Response "测验文档无效"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/teacher/courses/{courseId}/lessons/{lessonId} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	courseID, lessonID, ok := courseAndLesson(ctx)
	if !ok {
		return
	}

	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.UpdateLesson(ctx.Request.Context(), courseID, lessonID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}
